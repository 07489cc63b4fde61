package sink

// interactionJS mirrors interact.Engine in the browser: hover and click set
// the focus (a click wins until cleared), Escape or a click on the backdrop
// clears, "f" toggles fog. Particles loop along active edges and from
// overclock targets back to the focus; clearing removes them.
const interactionJS = `
    (function () {
      const data = JSON.parse(document.getElementById('galaxy-data').textContent);
      const stars = document.querySelectorAll('.star');
      const labels = document.querySelectorAll('.label');
      const edges = document.querySelectorAll('.edge');
      const layer = document.getElementById('particles');
      const NS = 'http://www.w3.org/2000/svg';
      let hovered = null, selected = data.selected || null, raf = null;

      function classify(id, cluster, focus, chain, focusCluster) {
        if (!focus || id === focus) return '';
        if (chain.has(id)) return 'highlight';
        if (data.fog && id !== data.root && cluster !== focusCluster) return 'fog';
        return 'dim';
      }

      function apply() {
        stopFlow();
        const focus = selected || hovered;
        const n = focus ? data.nodes[focus] : null;
        const chain = new Set(n ? n.chain : []);
        const fc = n ? n.cluster : null;
        stars.forEach(s => {
          const c = classify(s.dataset.id, s.dataset.cluster, n && focus, chain, fc);
          ['highlight', 'dim', 'fog'].forEach(k => s.classList.toggle(k, c === k));
        });
        labels.forEach(l => {
          const node = data.nodes[l.dataset.for];
          const c = classify(l.dataset.for, node ? node.cluster : '', n && focus, chain, fc);
          ['dim', 'fog'].forEach(k => l.classList.toggle(k, c === k));
        });
        edges.forEach(e => {
          const on = !!n && chain.has(e.dataset.source) && chain.has(e.dataset.target);
          e.classList.toggle('active', on);
          e.classList.toggle('dim', !!n && !on);
        });
        if (n) startFlow(focus, n);
      }

      function startFlow(focus, n) {
        const links = [];
        edges.forEach(e => {
          if (e.classList.contains('active')) links.push([e.dataset.source, e.dataset.target, false]);
        });
        (n.overclock || []).forEach(id => links.push([id, focus, true]));
        const dots = [];
        links.forEach(([a, b, oc]) => {
          const p = data.nodes[a], q = data.nodes[b];
          if (!p || !q) return;
          for (let i = 0; i < data.particles; i++) {
            const el = document.createElementNS(NS, 'circle');
            el.setAttribute('r', oc ? 2.5 : 2);
            el.setAttribute('class', oc ? 'particle overclock' : 'particle');
            layer.appendChild(el);
            dots.push({ el: el, p: p, q: q, t: i / data.particles });
          }
        });
        let last = performance.now();
        function frame(now) {
          const step = (now - last) / 1000 / data.period;
          last = now;
          dots.forEach(d => {
            d.t = (d.t + step) % 1;
            d.el.setAttribute('cx', d.p.x + (d.q.x - d.p.x) * d.t);
            d.el.setAttribute('cy', d.p.y + (d.q.y - d.p.y) * d.t);
            d.el.setAttribute('opacity', Math.sin(Math.PI * d.t));
          });
          raf = requestAnimationFrame(frame);
        }
        raf = requestAnimationFrame(frame);
      }

      function stopFlow() {
        if (raf) cancelAnimationFrame(raf);
        raf = null;
        while (layer.firstChild) layer.removeChild(layer.firstChild);
      }

      function clear() {
        hovered = null;
        selected = null;
        apply();
      }

      stars.forEach(s => {
        s.addEventListener('mouseenter', () => { hovered = s.dataset.id; apply(); });
        s.addEventListener('mouseleave', () => { hovered = null; apply(); });
        s.addEventListener('click', ev => {
          ev.stopPropagation();
          selected = selected === s.dataset.id ? null : s.dataset.id;
          apply();
        });
      });
      document.getElementById('backdrop').addEventListener('click', clear);
      document.addEventListener('keydown', ev => {
        if (ev.key === 'Escape') clear();
        if (ev.key === 'f') { data.fog = !data.fog; apply(); }
      });
      if (selected) apply();
    })();`
