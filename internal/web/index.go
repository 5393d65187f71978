package web

// Single-page console: wallet, balances, one form per action and a notification feed.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Whalehub</title>
  <link rel="preconnect" href="https://fonts.googleapis.com">
  <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
  <link href="https://fonts.googleapis.com/css2?family=Press+Start+2P&family=Space+Mono:wght@400;700&display=swap" rel="stylesheet">
  <style>
    :root { --bg:#ffffff; --ink:#111111; --ink-mid:#4d4d4d; --panel:#f6f6f6; }
    * { box-sizing:border-box; }
    body {
      margin:0; min-height:100vh; padding:2rem;
      background:var(--bg); color:var(--ink);
      font-family:'Space Mono','JetBrains Mono',monospace;
    }
    #app {
      width:min(1100px, 96vw); margin:0 auto;
      background:var(--panel); border:3px solid var(--ink); padding:2rem;
      box-shadow:12px 12px 0 rgba(0,0,0,.15);
      display:grid; grid-template-columns:1fr 340px; gap:2rem;
    }
    h1, h2 { font-family:'Press Start 2P','Space Mono',monospace; letter-spacing:.08em; }
    h1 { font-size:.9rem; margin:0 0 1rem; }
    h2 { font-size:.6rem; margin:0 0 .8rem; }
    .card { border:3px solid var(--ink); background:#fff; padding:1.2rem; margin-bottom:1.2rem; box-shadow:6px 6px 0 rgba(0,0,0,.12); }
    .row { display:flex; gap:.6rem; align-items:center; flex-wrap:wrap; }
    input, select, button { font-family:inherit; font-size:.75rem; border:2px solid var(--ink); padding:.4rem .6rem; background:#fff; }
    button { cursor:pointer; text-transform:uppercase; letter-spacing:.1em; box-shadow:3px 3px 0 rgba(0,0,0,.15); }
    button:disabled { color:var(--ink-mid); border-color:var(--ink-mid); cursor:wait; }
    table { width:100%; border-collapse:collapse; font-size:.7rem; }
    td { padding:.25rem 0; border-bottom:1px dashed rgba(0,0,0,.15); }
    .feed { display:flex; flex-direction:column; gap:.6rem; max-height:calc(100vh - 8rem); overflow-y:auto; }
    .note { border:2px solid var(--ink); padding:.6rem; font-size:.7rem; background:#fff; }
    .note.success { border-color:#2e7d32; }
    .note.warning { border-color:#b26a00; }
    .note.error { border-color:#c62828; }
    .muted { color:var(--ink-mid); font-size:.65rem; }
  </style>
</head>
<body>
<div id="app">
  <div>
    <h1>WHALEHUB</h1>
    <div class="card">
      <h2>WALLET</h2>
      <div class="row" id="wallet-disconnected">
        <select id="wallet-id"><option value="secret">secret</option><option value="keyfile">keyfile</option></select>
        <button onclick="connect()">Connect</button>
      </div>
      <div class="row" id="wallet-connected" hidden>
        <span id="address"></span>
        <button onclick="post('/refresh')">Refresh</button>
        <button onclick="post('/wallet/logout')">Logout</button>
      </div>
    </div>
    <div class="card">
      <h2>BALANCES</h2>
      <table id="balances"></table>
    </div>
    <div class="card">
      <h2>STAKING</h2>
      <table id="staking"></table>
    </div>
    <div class="card">
      <h2>ACTIONS</h2>
      <div class="row"><input id="lock-amount" placeholder="AQUA amount"><button data-kind="lock" onclick="act('lock', {amount: val('lock-amount')})">Lock</button></div><br>
      <div class="row"><input id="lp-aqua" placeholder="AQUA"><input id="lp-blub" placeholder="BLUB"><button data-kind="provide_liquidity" onclick="act('provide-liquidity', {aquaAmount: val('lp-aqua'), blubAmount: val('lp-blub')})">Provide</button></div><br>
      <div class="row"><input id="unstake-amount" placeholder="AQUA amount"><button data-kind="unstake" id="unstake-btn" onclick="act('unstake', {amount: val('unstake-amount')})">Unstake</button></div><br>
      <div class="row"><input id="withdraw-pct" placeholder="%"><button data-kind="withdraw_liquidity" onclick="act('withdraw-liquidity', {percentage: val('withdraw-pct')})">Withdraw</button></div><br>
      <div class="row"><input id="redeem-pct" placeholder="%"><button data-kind="redeem_reward" onclick="act('redeem-reward', {percentage: val('redeem-pct')})">Redeem</button></div>
    </div>
  </div>
  <div>
    <h2>NOTIFICATIONS</h2>
    <div class="feed" id="feed"><span class="muted">nothing yet</span></div>
  </div>
</div>
<script>
  const val = id => document.getElementById(id).value;
  let preselected = false;

  async function post(path, body) {
    const res = await fetch(path, {method: 'POST', headers: {'Content-Type': 'application/json'}, body: JSON.stringify(body || {})});
    if (!res.ok) {
      const err = await res.json().catch(() => ({error: res.statusText}));
      console.warn(path, err.error);
    }
  }
  const connect = () => post('/wallet/connect', {walletId: val('wallet-id')});
  const act = (slug, body) => post('/actions/' + slug, body);

  function render(view) {
    document.getElementById('wallet-disconnected').hidden = view.connected;
    document.getElementById('wallet-connected').hidden = !view.connected;
    document.getElementById('address').textContent = view.wallet ? view.wallet.address : '';
    const rows = ((view.userRecord && view.userRecord.balances) || []).map(b =>
      '<tr><td>' + (b.asset_code || 'XLM') + '</td><td>' + b.balance + '</td></tr>');
    document.getElementById('balances').innerHTML = rows.join('') || '<tr><td class="muted">no balances</td></tr>';
    if (!preselected && view.defaultWallet) {
      document.getElementById('wallet-id').value = view.defaultWallet;
      preselected = true;
    }
    const st = view.staking || {};
    const day = t => t ? new Date(t).toLocaleString() : '-';
    document.getElementById('staking').innerHTML = [
      ['Staked', st.staked], ['Claimable', st.claimable], ['Epoch', st.epoch],
      ['Next epoch', day(st.nextEpochAt)], ['Unbonding ends', day(st.unbondingEndsAt)], ['Cooldown ends', day(st.cooldownEndsAt)],
    ].map(([k, v]) => '<tr><td>' + k + '</td><td>' + (v ?? '-') + '</td></tr>').join('');
    document.getElementById('unstake-btn').textContent = 'Unstake (' + (st.unstakeBalance || '0') + ')';
    document.querySelectorAll('button[data-kind]').forEach(btn => {
      btn.disabled = (view.actions || {})[btn.dataset.kind] === 'pending';
    });
  }

  new EventSource('/session/stream').addEventListener('session', e => render(JSON.parse(e.data)));

  const feed = document.getElementById('feed');
  new EventSource('/notifications/stream').addEventListener('notification', e => {
    const n = JSON.parse(e.data);
    if (feed.querySelector('.muted')) feed.innerHTML = '';
    const el = document.createElement('div');
    el.className = 'note ' + n.level;
    el.textContent = (n.action ? '[' + n.action + '] ' : '') + n.message;
    feed.prepend(el);
  });
</script>
</body>
</html>
`
